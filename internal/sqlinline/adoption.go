package sqlinline

const QSelectAdoptionForUpdate = `--sql 113e7d62-a283-47ac-9c8f-ebb808749522
select a.id, a.pet, p.name, a.applicant::text, a.status, coalesce(a.rejection_reason, ''), a.updated_at
from adoption a
join pets p on p.id = a.pet
where a.id = $1::bigint
for update of a;
`

const QUpdateAdoptionStatus = `--sql 6ec2b746-d374-4e05-ae27-2d29712695ad
update adoption
set status = $2::text, rejection_reason = nullif($3::text, ''), updated_at = now()
where id = $1::bigint
returning updated_at;
`

const QRejectCompetingAdoptions = `--sql 912ea573-51b9-4561-9f8d-f6757ad56f9c
update adoption
set status = 'REJECTED', rejection_reason = $3::text, updated_at = now()
where pet = $1::bigint
  and id <> $2::bigint
  and status = 'PENDING'
returning id, applicant::text, updated_at;
`

const QMarkPetAdopted = `--sql 93427317-c658-4254-ac30-e01a6473a530
update pets
set status = 'ADOPTED', updated_at = now()
where id = $1::bigint;
`
