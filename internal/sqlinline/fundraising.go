package sqlinline

const QInsertCampaign = `--sql 8a1083e8-0bbb-4367-a558-489ded625e90
insert into fundraising (title, description, target_amount, raised_amount, status, created_by, images, end_date, created_at, updated_at)
values ($1::text, $2::text, $3::numeric, 0, 'PENDING', $4::uuid, coalesce($5::text[], '{}'), $6::timestamptz, now(), now())
returning id, title, description, target_amount, raised_amount, status, coalesce(created_by::text, ''), images, end_date, created_at, updated_at;
`

const QSelectCampaignByID = `--sql a08c519f-0386-48df-b735-024ecff60829
select id, title, description, target_amount, raised_amount, status, coalesce(created_by::text, ''), images, end_date, created_at, updated_at
from fundraising
where id = $1::bigint;
`

const QSelectCampaignForUpdate = `--sql 5ea346e6-7bea-45f8-adaa-2be8eb963136
select id, title, description, target_amount, raised_amount, status, coalesce(created_by::text, ''), images, end_date, created_at, updated_at
from fundraising
where id = $1::bigint
for update;
`

const QListCampaigns = `--sql e6c9f104-6cad-4f99-9b4f-3612e5a6a960
select id, title, description, target_amount, raised_amount, status, coalesce(created_by::text, ''), images, end_date, created_at, updated_at
from fundraising
where ($1::text = '' or status = $1::text)
order by created_at desc, id desc
limit $2::int offset $3::int;
`

const QUpdateCampaignStatus = `--sql f8cd2d60-09bd-46d0-bcb5-7c8214affbe2
update fundraising
set status = $2::text, updated_at = now()
where id = $1::bigint
returning id, title, description, target_amount, raised_amount, status, coalesce(created_by::text, ''), images, end_date, created_at, updated_at;
`

const QUpdateCampaignTotals = `--sql 09f9e01c-41bd-48f8-af69-d3d1ba8069b3
update fundraising
set raised_amount = $2::numeric, status = $3::text, updated_at = now()
where id = $1::bigint;
`

const QReconcileCampaign = `--sql d3f5d2df-6c21-441c-9904-8f0be1261847
update fundraising f
set raised_amount = coalesce((select sum(d.amount) from donations d where d.fundraising = f.id), 0),
    updated_at = now()
where f.id = $1::bigint
returning f.id, f.title, f.description, f.target_amount, f.raised_amount, f.status, coalesce(f.created_by::text, ''), f.images, f.end_date, f.created_at, f.updated_at;
`

const QReconcileAllCampaigns = `--sql 7872bd08-510c-431b-9d04-a295e8dc8998
with totals as (
    select f.id, coalesce(sum(d.amount), 0) as total
    from fundraising f
    left join donations d on d.fundraising = f.id
    group by f.id
)
update fundraising f
set raised_amount = t.total, updated_at = now()
from totals t
where t.id = f.id
  and f.raised_amount <> t.total;
`
